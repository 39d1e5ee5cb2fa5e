package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rogerio-castellano/pos-manager/internal/config"
	"github.com/rogerio-castellano/pos-manager/internal/dashboard"
	"github.com/rogerio-castellano/pos-manager/internal/logging"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const help = `commands:
  login <username> <password>
  products [offset] [limit]
  metrics
  logout
  quit`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	backend := pflag.String("backend", cfg.DashboardBackendURL, "POS backend base URL")
	pflag.Parse()

	logger, err := logging.New("warn", "development", cfg.Log.File)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	client := dashboard.NewClient(*backend)
	fmt.Printf("POS dashboard (%s)\n%s\n", *backend, help)
	run(client, os.Stdin, os.Stdout)
}

// run reads one command per line until quit or EOF. Request errors are
// reported and the loop continues.
func run(client *dashboard.Client, in io.Reader, out io.Writer) {
	var session dashboard.Session
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, prompt(session))
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		switch fields[0] {
		case "login":
			if len(fields) != 3 {
				fmt.Fprintln(out, "usage: login <username> <password>")
				break
			}
			s, err := client.Login(ctx, fields[1], fields[2])
			if err != nil {
				report(out, err)
				break
			}
			session = s
			fmt.Fprintln(out, "Login successful!")
		case "products":
			offset, limit, err := pageArgs(fields[1:])
			if err != nil {
				fmt.Fprintln(out, err)
				break
			}
			list, err := client.ListProducts(ctx, session, offset, limit)
			if err != nil {
				report(out, err)
				break
			}
			if err := dashboard.Render(out, list.Products); err != nil {
				report(out, err)
				break
			}
			if len(list.Products) > 0 {
				fmt.Fprintf(out, "(%d of %d)\n", len(list.Products), list.TotalCount)
			}
		case "metrics":
			m, err := client.Metrics(ctx, session)
			if err != nil {
				report(out, err)
				break
			}
			if err := dashboard.RenderMetrics(out, m); err != nil {
				report(out, err)
			}
		case "logout":
			session = dashboard.Logout(session)
			fmt.Fprintln(out, "Logged out.")
		case "quit", "exit":
			cancel()
			return
		default:
			fmt.Fprintln(out, help)
		}
		cancel()
	}
}

func prompt(s dashboard.Session) string {
	if s.Authenticated() {
		return s.Username + "> "
	}
	return "> "
}

func pageArgs(args []string) (offset, limit int, err error) {
	if len(args) > 0 {
		if offset, err = strconv.Atoi(args[0]); err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("offset must be a non-negative integer")
		}
	}
	if len(args) > 1 {
		if limit, err = strconv.Atoi(args[1]); err != nil || limit <= 0 {
			return 0, 0, fmt.Errorf("limit must be a positive integer")
		}
	}
	return offset, limit, nil
}

func report(out io.Writer, err error) {
	var transportErr *dashboard.TransportError
	switch {
	case errors.Is(err, dashboard.ErrInvalidCredentials):
		fmt.Fprintln(out, "Incorrect username or password.")
	case errors.Is(err, dashboard.ErrNotAuthenticated):
		fmt.Fprintln(out, "Please log in first.")
	case errors.Is(err, dashboard.ErrUnauthorized):
		fmt.Fprintln(out, "Your session is no longer valid, please log in again.")
	case errors.As(err, &transportErr):
		zap.L().Warn("request failed", zap.Error(err))
		fmt.Fprintf(out, "Could not reach the backend: %v\n", err)
	default:
		fmt.Fprintln(out, err)
	}
}
