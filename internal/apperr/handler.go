package apperr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mygramdb/mygram-go/pkg/mygram"
	"github.com/mygramdb/mygram-go/pkg/query"
)

// GlobalErrorHandler maps errors escaping handlers onto HTTP statuses:
// expression syntax and validation errors are the caller's fault (400),
// missing documents are 404, errors reported by the search server are 502,
// timeouts reaching it are 504. Anything unrecognized is logged and hidden
// behind a 500.
func GlobalErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ve *ValidationError
		if errors.As(err, &ve) {
			_ = c.JSON(http.StatusBadRequest, map[string]string{"error": ve.Message, "title": "validation error"})
			return
		}

		var se *query.SyntaxError
		if errors.As(err, &se) {
			_ = c.JSON(http.StatusBadRequest, map[string]string{"error": se.Error(), "title": "invalid expression"})
			return
		}

		var nf *NotFoundError
		if errors.As(err, &nf) {
			_ = c.JSON(http.StatusNotFound, map[string]string{"error": nf.Error()})
			return
		}

		if mygram.IsNotFound(err) {
			_ = c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}

		var srvErr *mygram.ServerError
		if errors.As(err, &srvErr) {
			_ = c.JSON(http.StatusBadGateway, map[string]string{"error": "search server: " + srvErr.Message})
			return
		}

		if isTimeout(err) {
			_ = c.JSON(http.StatusGatewayTimeout, map[string]string{"error": "search server timeout"})
			return
		}

		if isUpstreamDown(err) {
			_ = c.JSON(http.StatusBadGateway, map[string]string{"error": "search server unavailable"})
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := fmt.Sprintf("%v", he.Message)
			_ = c.JSON(he.Code, map[string]string{"error": msg})
			return
		}

		slog.Error("Unhandled error", "error", err)
		_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func isUpstreamDown(err error) bool {
	if errors.Is(err, mygram.ErrNotConnected) || errors.Is(err, mygram.ErrConnectionClosed) {
		return true
	}
	var pe *mygram.ProtocolError
	if errors.As(err, &pe) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}
