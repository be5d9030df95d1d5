package cli

import (
	"context"
	"os"

	"github.com/mkraev/carelink/internal/client/display"
)

// Profile shows the patient's record and offers to update the contact phone,
// the one field patients may edit themselves.
func (a *App) Profile(ctx context.Context) error {
	p, err := a.profile.Get(ctx)
	if err != nil {
		display.ErrorMsg("Could not load your profile: %s", err.Error())
		return err
	}

	display.Header(p.DisplayName())
	display.SubHeader("email: " + p.Email)
	if p.Phone != "" {
		display.SubHeader("phone: " + p.Phone)
	}

	edit, err := GetConfirm(a.reader, "Update phone number?", os.Stdout)
	if err != nil || !edit {
		return err
	}

	phone, err := getSimpleText(a.reader, "New phone number", os.Stdout)
	if err != nil {
		return err
	}
	p.Phone = phone

	updated, err := a.profile.Update(ctx, p)
	if err != nil {
		display.ErrorMsg("Update failed: %s", err.Error())
		return err
	}

	display.SuccessMsg("Profile updated for %s", updated.DisplayName())
	return nil
}
