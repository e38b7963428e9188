// Command issue-token prints a signed bearer token for a learner so the study
// API can be exercised without a login flow. The signing secret is read from
// SCRY_AUTH_JWT_SECRET, the same variable the server uses.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/service/auth"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:], os.Getenv, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "issue-token:", err)
		os.Exit(1)
	}
}

func run(args []string, getenv func(string) string, out io.Writer) error {
	flags := pflag.NewFlagSet("issue-token", pflag.ContinueOnError)
	learner := flags.StringP("learner", "l", "", "learner ID (a new one is generated when empty)")
	lifetime := flags.DurationP("lifetime", "t", 24*time.Hour, "token lifetime")
	if err := flags.Parse(args); err != nil {
		return err
	}

	learnerID := uuid.New()
	if *learner != "" {
		id, err := uuid.Parse(*learner)
		if err != nil {
			return fmt.Errorf("invalid learner ID %q: %w", *learner, err)
		}
		learnerID = id
	}

	svc, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:     getenv(config.EnvPrefix + "_AUTH_JWT_SECRET"),
		TokenLifetime: *lifetime,
	})
	if err != nil {
		return err
	}

	token, err := svc.GenerateToken(context.Background(), learnerID)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "learner: %s\ntoken:   %s\n", learnerID, token)
	return err
}
