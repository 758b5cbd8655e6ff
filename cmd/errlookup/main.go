package main

// Small CLI tool to look up error codes and statuses, or to classify the
// failed response of a deployed URL.

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/localblog/internal/errcatalog"
)

func main() {
	code := flag.String("code", "", "error code to look up, e.g. DEPLOYMENT_NOT_FOUND")
	status := flag.Int("status", 0, "HTTP status to look up, e.g. 404")
	url := flag.String("url", "", "URL to request and classify when it fails")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout, used with -url")
	flag.Parse()

	log.SetOutput(os.Stderr)

	var err error
	switch {
	case *code != "":
		err = lookupCode(*code)
	case *status != 0:
		err = lookupStatus(*status)
	case *url != "":
		err = classifyURL(*url, *timeout)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.Errorf("errlookup: %s", err)
		os.Exit(1)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func lookupCode(code string) error {
	rec, ok := errcatalog.LookupByCode(code)
	if !ok {
		return fmt.Errorf("unknown error code [%s], message shown: %s", code, errcatalog.FriendlyMessage(code))
	}
	return printJSON(rec)
}

func lookupStatus(status int) error {
	records := errcatalog.LookupByStatus(status)
	return printJSON(struct {
		Status  int                 `json:"status"`
		Message string              `json:"message"`
		Records []errcatalog.Record `json:"records"`
	}{
		Status:  status,
		Message: errcatalog.FriendlyMessage(status),
		Records: records,
	})
}

func classifyURL(url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return printJSON(errcatalog.Classify(err))
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Warnf("close response body: %s", err)
		}
	}()

	if resp.StatusCode < http.StatusBadRequest {
		fmt.Printf("%s responded with %d, nothing to classify\n", url, resp.StatusCode)
		return nil
	}

	return printJSON(errcatalog.ClassifyResponse(resp))
}
