package cli

import (
	"context"
	"fmt"

	"github.com/mkraev/carelink/internal/client/display"
)

// Forms lists the intake forms assigned to the patient.
func (a *App) Forms(ctx context.Context) error {
	forms, err := a.forms.List(ctx)
	if err != nil {
		display.ErrorMsg("Could not load forms: %s", err.Error())
		return err
	}

	display.Header("Intake forms")
	if len(forms) == 0 {
		display.SubHeader("No forms assigned.")
		return nil
	}
	for _, f := range forms {
		status := display.Muted.Render("pending")
		if f.Done {
			status = display.Success.Render("done")
		}
		row := fmt.Sprintf("  %s  %s", display.Bold.Render(f.Title), status)
		if f.DueDate != "" && !f.Done {
			row += "  " + display.Dim.Render("due "+f.DueDate)
		}
		fmt.Println(row)
	}
	return nil
}

// Billing lists the patient's billing statements.
func (a *App) Billing(ctx context.Context) error {
	statements, err := a.billing.Statements(ctx)
	if err != nil {
		display.ErrorMsg("Could not load billing statements: %s", err.Error())
		return err
	}

	display.Header("Billing statements")
	if len(statements) == 0 {
		display.SubHeader("No statements.")
		return nil
	}
	for _, s := range statements {
		issued := ""
		if s.IssuedAt != nil {
			issued = s.IssuedAt.Format("2006-01-02")
		}
		amount := fmt.Sprintf("$%.2f", float64(s.AmountCents)/100)
		if s.Paid {
			amount += " " + display.Success.Render("paid")
		}
		fmt.Printf("  %s  %s  %s\n", display.Dim.Render(issued), display.Bold.Render(amount), s.Description)
	}
	return nil
}

// Terms fetches and prints the portal's terms of service.
func (a *App) Terms(ctx context.Context) error {
	body, err := a.documents.Terms(ctx)
	if err != nil {
		display.ErrorMsg("Could not load the terms of service: %s", err.Error())
		return err
	}

	display.Header("Terms of service")
	fmt.Println(body)
	return nil
}
