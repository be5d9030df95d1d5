package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkraev/carelink/internal/client/api"
	"github.com/mkraev/carelink/internal/client/display"
	"github.com/mkraev/carelink/internal/client/models"
	"github.com/mkraev/carelink/internal/common"
)

// Providers lists the care team directory. When the backend is unreachable
// it falls back to the locally cached snapshot so the patient can still see
// who their providers are.
func (a *App) Providers(ctx context.Context) error {
	list, err := a.providers.List(ctx)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Retryable() {
			cached, fetchedAt, cacheErr := a.providers.Cached(ctx)
			if cacheErr == nil {
				display.SubHeader("offline: showing directory cached " + fetchedAt.Local().Format("2006-01-02 15:04"))
				a.careTeam = cached
				a.printCareTeam()
				return nil
			}
		}
		display.ErrorMsg("Could not load the care team: %s", err.Error())
		return err
	}

	a.careTeam = list
	a.printCareTeam()
	return nil
}

func (a *App) printCareTeam() {
	if len(a.careTeam) == 0 {
		display.SubHeader("No providers on your care team yet.")
		return
	}
	display.Header("Your care team")
	for i, p := range a.careTeam {
		fmt.Println(display.ProviderRow(i+1, p))
	}
}

// resolveProvider maps a 1-based directory number from the last `providers`
// listing to its entry.
func (a *App) resolveProvider(n int) (models.Provider, error) {
	if len(a.careTeam) == 0 {
		display.ErrorMsg("Run 'providers' first to list your care team")
		return models.Provider{}, common.ErrInvalidIdentifier
	}
	if n < 1 || n > len(a.careTeam) {
		display.ErrorMsg("No provider number %d; pick 1-%d", n, len(a.careTeam))
		return models.Provider{}, common.ErrInvalidIdentifier
	}
	return a.careTeam[n-1], nil
}
