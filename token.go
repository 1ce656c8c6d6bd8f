package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Darshit9241/billing-webiste-sub000/middlewares"
)

// issueToken handles `token -sub <caller> [-ttl 24h]` and prints a bearer
// token signed with the configured secret.
func issueToken(args []string, secret string, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(out)
	sub := fs.String("sub", "", "token subject (caller id)")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*sub) == "" {
		return errors.New("-sub is required")
	}
	if *ttl <= 0 {
		return errors.New("-ttl must be positive")
	}
	token, err := middlewares.GenerateJWT(secret, strings.TrimSpace(*sub), *ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
