// Package handlers exposes the fundability engine over API Gateway events.
// The same handlers back the Lambda functions and the local HTTP server.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"business-fundability-engine/internal/apperrors"
	"business-fundability-engine/internal/utils"
)

// APIHandler is the signature shared by every API Gateway handler.
type APIHandler func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

func corsHeaders(methods string) map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type,Authorization",
		"Access-Control-Allow-Methods": methods,
		"Content-Type":                 "application/json",
	}
}

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func jsonResponse(headers map[string]string, statusCode int, payload interface{}) (events.APIGatewayProxyResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return errorResponse(headers, http.StatusInternalServerError, "Failed to encode response")
	}
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       string(body),
	}, nil
}

// errorResponse creates an error response.
func errorResponse(headers map[string]string, statusCode int, message string) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(ErrorBody{
		Error:   http.StatusText(statusCode),
		Message: message,
	})

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       string(body),
	}, nil
}

// appErrorResponse maps a service error to its HTTP status. Internal causes
// are logged, not returned.
func appErrorResponse(headers map[string]string, err error) (events.APIGatewayProxyResponse, error) {
	status := apperrors.HTTPStatus(err)

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.InternalError("unexpected error", err)
	}

	if status >= http.StatusInternalServerError {
		utils.GetLogger().Error("Request failed",
			utils.String("code", appErr.Code),
			utils.String("operation", appErr.Operation),
			utils.Error(err))
	}

	body := ErrorBody{
		Error:   http.StatusText(status),
		Code:    appErr.Code,
		Message: appErr.Message,
	}
	if status < http.StatusInternalServerError {
		body.Details = appErr.Details
		if body.Details == "" && appErr.Cause != nil {
			body.Details = appErr.Cause.Error()
		}
	}

	raw, _ := json.Marshal(body)
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    headers,
		Body:       string(raw),
	}, nil
}

func preflight(headers map[string]string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Headers: headers}
}

// HTTPAdapter serves an API Gateway handler from net/http. Path parameters
// are taken from the listed query keys so local routes need no router.
func HTTPAdapter(h APIHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}

		query := make(map[string]string, len(r.URL.Query()))
		for key, values := range r.URL.Query() {
			if len(values) > 0 {
				query[key] = values[0]
			}
		}

		headers := make(map[string]string, len(r.Header))
		for key := range r.Header {
			headers[strings.ToLower(key)] = r.Header.Get(key)
		}

		resp, err := h(r.Context(), events.APIGatewayProxyRequest{
			HTTPMethod:            r.Method,
			Path:                  r.URL.Path,
			Headers:               headers,
			QueryStringParameters: query,
			PathParameters:        query,
			Body:                  string(body),
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		_, _ = io.WriteString(w, resp.Body)
	}
}
