package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
)

// TestMain runs before any tests and applies globally for all tests in the package.
func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	log.SetOutput(io.Discard)

	exitVal := m.Run()
	os.Exit(exitVal)
}

type ServeTestSuite struct {
	suite.Suite
}

func TestServeTestSuite(t *testing.T) {
	suite.Run(t, new(ServeTestSuite))
}

func freeAddr(t *testing.T) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	_ = l.Close()
	return addr
}

func (s *ServeTestSuite) TestServe_StopsOnCancel() {
	fiberApp := fiber.New(fiber.Config{DisableStartupMessage: true})
	fiberApp.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })
	addr := freeAddr(s.T())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, fiberApp, addr, slog.Default()) }()

	s.Eventually(func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(shutdownTimeout + time.Second):
		s.Fail("server did not shut down")
	}
}

func (s *ServeTestSuite) TestServe_ListenError() {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	s.Require().NoError(err)
	defer l.Close() //nolint: errcheck

	fiberApp := fiber.New(fiber.Config{DisableStartupMessage: true})
	err = serve(context.Background(), fiberApp, l.Addr().String(), slog.Default())
	s.Error(err)
}
