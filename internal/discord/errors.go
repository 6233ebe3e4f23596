package discord

import (
	"errors"
	"net"
	"net/url"

	"github.com/bwmarrin/discordgo"

	apperrors "github.com/hyprland-community/Hyprmaid/internal/errors"
)

// wrapError classifies a discordgo error into a platform AppError
func wrapError(err error, resource string) error {
	if err == nil {
		return nil
	}

	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		code := apperrors.ErrCodeBadResponse
		if restErr.Response != nil {
			code = apperrors.CodeForStatus(restErr.Response.StatusCode)
		}
		return apperrors.Platform(code, resource, err)
	}

	if errors.Is(err, discordgo.ErrJSONUnmarshal) {
		return apperrors.Platform(apperrors.ErrCodeBadResponse, resource, err)
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return apperrors.Platform(apperrors.ErrCodeNetwork, resource, err)
	}

	return apperrors.Platform(apperrors.ErrCodeUnknown, resource, err)
}
