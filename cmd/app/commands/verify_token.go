package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	authDomain "github.com/centrala/rainfall-gate/internal/auth/domain"
	authService "github.com/centrala/rainfall-gate/internal/auth/service"
)

// RunVerifyToken checks a token against the configured signing secret and
// prints its claims, or the failure kind. The token itself is never echoed.
// An empty token is read from the first line of reader.
func RunVerifyToken(
	tokens authService.TokenService,
	streams IOTuple,
	token string,
	format string,
) error {
	token = strings.TrimSpace(token)
	if token == "" {
		line, err := bufio.NewReader(streams.Reader).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read token: %w", err)
		}
		token = strings.TrimSpace(line)
	}
	if token == "" {
		return fmt.Errorf("token is required")
	}

	identity, err := tokens.Verify(token)
	if err != nil {
		reason := authDomain.TokenFailureReason(err)
		if outErr := outputVerifyToken(streams.Writer, nil, reason, format); outErr != nil {
			return outErr
		}
		return fmt.Errorf("token verification failed: %s", reason)
	}

	return outputVerifyToken(streams.Writer, &identity, "", format)
}

func outputVerifyToken(writer io.Writer, identity *authDomain.Identity, reason, format string) error {
	if format == "json" {
		result := map[string]any{"valid": identity != nil}
		if identity != nil {
			result["email"] = identity.Email
			result["user_id"] = identity.UserID.String()
			result["is_admin"] = identity.IsAdmin
			result["expires_at"] = identity.ExpiresAt.UTC().Format(time.RFC3339)
		} else {
			result["reason"] = reason
		}
		return writeJSON(writer, result)
	}

	if identity == nil {
		_, err := fmt.Fprintf(writer, "Token is invalid: %s\n", reason)
		return err
	}

	_, err := fmt.Fprintf(writer,
		"Token is valid\n  Email:      %s\n  User ID:    %s\n  Admin:      %t\n  Expires at: %s\n",
		identity.Email,
		identity.UserID,
		identity.IsAdmin,
		identity.ExpiresAt.UTC().Format(time.RFC3339),
	)
	return err
}
