package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recipebook/internal/client/client"
	"github.com/dmitrijs2005/recipebook/internal/client/form"
	"github.com/dmitrijs2005/recipebook/internal/client/services"
	"github.com/dmitrijs2005/recipebook/internal/common"
	"github.com/dmitrijs2005/recipebook/internal/validation"
)

// fieldPrompt describes how one form field is asked for.
type fieldPrompt struct {
	name      string
	label     string
	secret    bool
	multiline bool
}

// fill asks for every field until it passes blur validation. In keep mode
// an empty answer leaves the current value and "-" clears it.
func (a *App) fill(f *form.Form, prompts []fieldPrompt, keep bool) error {
	for _, p := range prompts {
		for {
			v, err := a.ask(p, f.Values()[p.name], keep)
			if err != nil {
				return err
			}
			f.OnChange(p.name, v)
			msg := f.OnBlur(p.name)
			if msg == "" {
				break
			}
			a.printf("  ! %s\n", msg)
		}
	}
	return nil
}

func (a *App) ask(p fieldPrompt, current string, keep bool) (string, error) {
	label := p.label
	if keep && current != "" && !p.multiline && !p.secret {
		label = fmt.Sprintf("%s [%s]", label, current)
	}

	var (
		v   string
		err error
	)
	switch {
	case p.secret:
		var pw []byte
		pw, err = GetPassword(a.reader, label, a.out)
		v = string(pw)
		common.WipeByteArray(pw)
	case p.multiline:
		v, err = GetMultiline(a.reader, label, a.out)
	default:
		v, err = GetSimpleText(a.reader, label, a.out)
	}
	if err != nil {
		return "", err
	}

	if keep {
		switch strings.TrimSpace(v) {
		case "":
			return current, nil
		case "-":
			return "", nil
		}
	}
	return v, nil
}

// submit runs action through the form and reports what went wrong.
func (a *App) submit(ctx context.Context, f *form.Form, action form.Action) error {
	err := f.Submit(ctx, action)
	if err == nil {
		return nil
	}
	a.printFieldErrors(f)

	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		a.notify.Error(client.MsgCheckFields)
	case errors.Is(err, client.ErrUnauthorized) && !errors.Is(err, services.ErrInvalidCredentials):
	case f.General() != "":
		a.notify.Error(f.General())
	default:
		a.notify.Error(client.UserMessage(err))
	}
	a.log.Debug(ctx, "form rejected", "form", f.Schema().Name(), "error", err)
	return err
}

func (a *App) printFieldErrors(f *form.Form) {
	errs := f.Errors()
	for _, name := range f.Schema().Fields() {
		if msg, ok := errs[name]; ok {
			a.printf("  %s: %s\n", name, msg)
		}
	}
}
