package github

import (
	"errors"
	"net"
	"net/url"

	gogithub "github.com/google/go-github/v68/github"

	apperrors "github.com/hyprland-community/Hyprmaid/internal/errors"
)

// wrapError classifies a go-github error into a provider AppError
func wrapError(err error, resource string) error {
	if err == nil {
		return nil
	}

	var rateErr *gogithub.RateLimitError
	if errors.As(err, &rateErr) {
		return apperrors.Provider(apperrors.ErrCodeRateLimited, resource, err)
	}

	var abuseErr *gogithub.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return apperrors.Provider(apperrors.ErrCodeRateLimited, resource, err)
	}

	var respErr *gogithub.ErrorResponse
	if errors.As(err, &respErr) {
		code := apperrors.ErrCodeBadResponse
		if respErr.Response != nil {
			code = apperrors.CodeForStatus(respErr.Response.StatusCode)
		}
		return apperrors.Provider(code, resource, err)
	}

	if isNetworkError(err) {
		return apperrors.Provider(apperrors.ErrCodeNetwork, resource, err)
	}

	return apperrors.Provider(apperrors.ErrCodeUnknown, resource, err)
}

func isNetworkError(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
