package cli

import (
	"context"
	"os"

	"github.com/mkraev/carelink/internal/client/conversation"
	"github.com/mkraev/carelink/internal/client/display"
	"github.com/mkraev/carelink/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts the user for an email and password and authenticates against
// the portal. On success the session store holds the tokens and identity, so
// no state is kept on the App itself.
//
// The password byte slice is securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Login(ctx, email, string(password)); err != nil {
		display.ErrorMsg("Login failed: %s", err.Error())
		return err
	}

	display.SuccessMsg("Logged in as %s", a.store.Current().DisplayName)
	return nil
}

// Logout revokes the session server-side (best effort) and clears the local
// state. Cached directory data stays; it holds no secrets.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		display.ErrorMsg("Logout failed: %s", err.Error())
		return err
	}
	a.syncs = make(map[int64]*conversation.Synchronizer)
	display.SuccessMsg("Logged out")
	return nil
}

// WhoAmI prints the current session identity and token expiry.
func (a *App) WhoAmI(ctx context.Context) error {
	cur := a.store.Current()
	if !cur.Authenticated() {
		display.ErrorMsg("Not logged in")
		return common.ErrNotAuthenticated
	}

	display.Header(cur.DisplayName)
	display.SubHeader("patient id: " + cur.SubjectID)
	if exp, ok := a.store.TokenExpiresAt(); ok {
		display.SubHeader("session expires: " + exp.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
