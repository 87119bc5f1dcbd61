package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	authService "github.com/Recipe-Web-App/recipe-management-service/internal/auth/service"
)

// RunCreateToken issues a signed access token for the subject and writes it
// to out in text or JSON format. Roles are embedded in the token's roles
// claim when provided.
func RunCreateToken(
	codec authService.TokenCodec,
	logger *slog.Logger,
	out io.Writer,
	subject string,
	roles []string,
	format string,
) error {
	if subject == "" {
		return fmt.Errorf("subject must not be empty")
	}

	claims := map[string]any{}
	if len(roles) > 0 {
		claims["roles"] = roles
	}

	token, err := codec.GenerateToken(subject, claims)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	expiresIn := int64(codec.TimeUntilExpiration(token).Seconds())

	logger.Info("token issued",
		slog.String("subject", subject),
		slog.Int("roles", len(roles)),
	)

	if format == "json" {
		return outputCreateTokenJSON(out, subject, token, expiresIn)
	}
	outputCreateTokenText(out, subject, token, expiresIn)
	return nil
}

// outputCreateTokenText outputs the result in human-readable text format.
func outputCreateTokenText(out io.Writer, subject, token string, expiresIn int64) {
	fmt.Fprintf(out, "Issued token for %q (expires in %d second(s))\n", subject, expiresIn)
	fmt.Fprintln(out, token)
}

// outputCreateTokenJSON outputs the result in JSON format for machine consumption.
func outputCreateTokenJSON(out io.Writer, subject, token string, expiresIn int64) error {
	result := map[string]interface{}{
		"subject":      subject,
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   expiresIn,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Fprintln(out, string(jsonBytes))
	return nil
}
