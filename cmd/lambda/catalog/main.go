// Command catalog serves the catalog API from AWS Lambda behind API Gateway.
package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/example/rocketshoes-cart/internal/catalog"
	"github.com/example/rocketshoes-cart/internal/logging"
	"github.com/sirupsen/logrus"
)

var router http.Handler

func init() {
	logger, err := logging.New(envOr("CART_LOG__LEVEL", "info"), "json")
	if err != nil {
		logrus.WithError(err).Fatal("[Lambda Catalog] Invalid log settings")
	}

	repo, err := catalog.LoadFile(os.Getenv("CART_CATALOG__SEED"))
	if err != nil {
		logger.WithError(err).Fatal("[Lambda Catalog] Failed to load catalog")
	}
	router = catalog.NewHandler(repo, logger).Routes()
	logger.Info("[Lambda Catalog] Initialized successfully")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return serve(ctx, router, req), nil
}

// serve replays an API Gateway request against h
func serve(ctx context.Context, h http.Handler, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	path := req.Path
	if path == "" {
		path = "/"
	}
	query := url.Values{}
	for k, v := range req.QueryStringParameters {
		query.Set(k, v)
	}
	for k, vs := range req.MultiValueQueryStringParameters {
		query[k] = vs
	}
	target := (&url.URL{Path: path, RawQuery: query.Encode()}).String()

	httpReq, err := http.NewRequestWithContext(ctx, req.HTTPMethod, target, strings.NewReader(req.Body))
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusBadRequest,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"error":"invalid request"}`,
		}
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httpReq)

	headers := make(map[string]string, len(rec.Header()))
	for k := range rec.Header() {
		headers[k] = rec.Header().Get(k)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: rec.Code,
		Headers:    headers,
		Body:       rec.Body.String(),
	}
}

func main() {
	lambda.Start(handler)
}
