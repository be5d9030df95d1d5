package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mkraev/carelink/internal/client/display"
	"github.com/mkraev/carelink/internal/filex"
)

// Inbox loads and prints the thread with the n-th provider from the last
// directory listing. A load failure still prints whatever is held locally,
// placeholders from failed sends included.
func (a *App) Inbox(ctx context.Context, n int) error {
	p, err := a.resolveProvider(n)
	if err != nil {
		return err
	}

	sync := a.synchronizer(p)
	if err := sync.Load(ctx); err != nil {
		display.ErrorMsg("Could not refresh the thread: %s", err.Error())
	}

	msgs := sync.Messages()
	display.Header("Messages with " + p.Name)
	if len(msgs) == 0 {
		display.SubHeader("No messages yet.")
		return nil
	}
	for _, m := range msgs {
		fmt.Print(display.MessageRow(m))
	}
	return nil
}

// Send composes and submits a message to the n-th provider. The body is read
// as multiline text; an optional attachment path and urgency flag follow. On
// failure the draft stays in the thread as a pending placeholder.
func (a *App) Send(ctx context.Context, n int) error {
	p, err := a.resolveProvider(n)
	if err != nil {
		return err
	}

	body, err := GetMultiline(a.reader, "Message to "+p.Name, os.Stdout)
	if err != nil {
		return err
	}
	if body == "" {
		display.SubHeader("Nothing to send.")
		return nil
	}

	var attachment *filex.Attachment
	path, err := getSimpleText(a.reader, "Attachment path (leave empty for none)", os.Stdout)
	if err != nil {
		return err
	}
	if path != "" {
		attachment, err = filex.ReadAttachment(path)
		if err != nil {
			display.ErrorMsg("Could not read attachment: %s", err.Error())
			return err
		}
	}

	urgent, err := GetConfirm(a.reader, "Mark as urgent?", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.synchronizer(p).Send(ctx, body, urgent, attachment); err != nil {
		display.ErrorMsg("Send failed, your draft is kept in the thread: %s", err.Error())
		return err
	}

	display.SuccessMsg("Message sent to %s", p.Name)
	return nil
}
