package discord

import (
	"errors"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"modmail/internal/domain"
)

// classify converts a discordgo failure into a domain error. Errors that
// carry no recognizable code are tagged with fallback.
func classify(fallback domain.ErrorKind, op string, err error) error {
	if err == nil {
		return nil
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		if restErr.Message != nil {
			switch restErr.Message.Code {
			case discordgo.ErrCodeUnknownChannel, discordgo.ErrCodeUnknownMessage:
				return domain.NotFoundError(op, err)
			case discordgo.ErrCodeCannotSendMessagesToThisUser:
				return domain.DeliveryError(op, err)
			}
		}
		if restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
			return domain.NotFoundError(op, err)
		}
	}
	return domain.Classify(fallback, op, err)
}
