package service

import (
	"context"
	"github.com/yakoovad/makarapreneur/internal/mail"
	"github.com/yakoovad/makarapreneur/pkg/logger"
	"go.uber.org/zap"
)

// notify renders and sends a mail. Failures are logged and never reach the caller.
func notify(ctx context.Context, m mail.Mailer, to string, tpl mail.Template, data any) {
	if m == nil || to == "" {
		return
	}

	l := logger.FromContext(ctx)

	subject, body, err := mail.Render(tpl, data)
	if err != nil {
		l.Error("failed to render mail", zap.String("template", string(tpl)), zap.Error(err))
		return
	}

	if err = m.Send(ctx, to, subject, body); err != nil {
		l.Warn("failed to send mail",
			zap.String("template", string(tpl)),
			zap.String("to", to),
			zap.Error(err))
		return
	}

	l.Debug("mail sent", zap.String("template", string(tpl)), zap.String("to", to))
}
