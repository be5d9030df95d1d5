// Package services contains the typed resource façades of the portal API.
// Each service is a thin layer over the request pipeline for one resource
// family: it attaches the bearer token, unwraps the {success, data}
// envelope, and returns domain models. Services never reinterpret pipeline
// failures beyond the envelope's success flag.
package services

import (
	"github.com/mkraev/carelink/internal/client/api"
	"github.com/mkraev/carelink/internal/client/session"
	"github.com/mkraev/carelink/internal/common"
)

// authorized returns d with the bearer authorization header attached, or
// common.ErrNotAuthenticated when no usable session exists. Authorization
// is attached here, per service call, because the pipeline itself is
// header-agnostic.
func authorized(d api.Descriptor, store *session.Store) (api.Descriptor, error) {
	cur := store.Current()
	if !cur.Authenticated() {
		return api.Descriptor{}, common.ErrNotAuthenticated
	}
	return d.WithHeader(common.AuthorizationHeader, common.BearerPrefix+cur.AccessToken), nil
}
