package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tpl "github.com/oksasatya/course-marketplace/pkg/mailer/templates"
)

// Sender is satisfied by *Mailgun.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// ErrUnrenderable marks jobs that will never succeed; the worker drops them
// instead of requeueing.
var ErrUnrenderable = errors.New("mailer: unrenderable job")

// Compose resolves the final subject and bodies. Template jobs are rendered
// with brand defaults applied; raw jobs pass through.
func Compose(job EmailJob, brand tpl.Brand) (subject, text, html string, err error) {
	if strings.TrimSpace(job.To) == "" {
		return "", "", "", fmt.Errorf("%w: empty recipient", ErrUnrenderable)
	}
	if job.Template == "" {
		if job.Subject == "" || (job.Text == "" && job.HTML == "") {
			return "", "", "", fmt.Errorf("%w: raw job without subject or body", ErrUnrenderable)
		}
		return job.Subject, job.Text, job.HTML, nil
	}
	if !tpl.Known(job.Template) {
		return "", "", "", fmt.Errorf("%w: unknown template %q", ErrUnrenderable, job.Template)
	}
	job.Normalize()
	subject, text, html, err = tpl.Render(job.Template, tpl.ApplyBrand(job.Data, brand))
	if err != nil {
		return "", "", "", fmt.Errorf("%w: %v", ErrUnrenderable, err)
	}
	if job.Subject != "" {
		subject = job.Subject
	}
	return strings.TrimSpace(subject), text, html, nil
}

// Deliver composes and sends one job.
func Deliver(ctx context.Context, s Sender, job EmailJob, brand tpl.Brand) error {
	subject, text, html, err := Compose(job, brand)
	if err != nil {
		return err
	}
	return s.Send(ctx, job.To, subject, text, html)
}
