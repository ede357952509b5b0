package delivery

import (
	"context"

	"github.com/dtroode/codeauth-server/internal/logger"
	"github.com/dtroode/codeauth-server/internal/model"
)

// LogSender writes codes to the log instead of mailing them. It is the
// default sender for local development.
type LogSender struct {
	logger *logger.Logger
}

var _ model.CodeSender = (*LogSender)(nil)

func NewLogSender(logger *logger.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, email, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.logger.Info("Log sender: login code",
		"email", email,
		"code", code)

	return nil
}
