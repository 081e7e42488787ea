// Package emailsvc implements core.EmailService.
package emailsvc

import (
	"github.com/trezcool/notas/core"
)

// New returns SendGrid when an API key is configured, the console otherwise.
func New(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.SendgridApiKey == "" || conf.Debug {
		return NewConsoleService(conf, logger)
	}
	return NewSendgridService(conf, logger)
}
