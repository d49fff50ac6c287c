// Package lambdahandler serves the dispatcher under the AWS Lambda runtime,
// where the action invocation arrives as the function event and the envelope
// is the function result.
package lambdahandler

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/parlakisik/agent-exchange/aex-action-router/internal/middleware"
	"github.com/parlakisik/agent-exchange/aex-action-router/internal/model"
)

// Dispatcher answers action invocations.
type Dispatcher interface {
	Dispatch(ctx context.Context, inv model.Invocation) (*model.ResponseEnvelope, error)
}

type Handler struct {
	dispatcher Dispatcher
	onShutdown []func()
}

// New wraps d. The onShutdown hooks run in order when the runtime sends
// SIGTERM, before the execution environment is torn down.
func New(d Dispatcher, onShutdown ...func()) *Handler {
	return &Handler{dispatcher: d, onShutdown: onShutdown}
}

// Handle dispatches one invocation. Errors are returned unchanged so the
// platform reports the invocation as failed.
func (h *Handler) Handle(ctx context.Context, inv model.Invocation) (*model.ResponseEnvelope, error) {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		ctx = middleware.WithRequestID(ctx, lc.AwsRequestID)
		slog.InfoContext(ctx, "lambda invocation",
			"aws_request_id", lc.AwsRequestID,
			"function_arn", lc.InvokedFunctionArn,
		)
	}
	return h.dispatcher.Dispatch(ctx, inv)
}

// Start hands control to the Lambda runtime. It does not return.
func (h *Handler) Start() {
	lambda.StartWithOptions(h.Handle, lambda.WithEnableSIGTERM(h.shutdown))
}

func (h *Handler) shutdown() {
	slog.Info("lambda shutdown")
	for _, fn := range h.onShutdown {
		fn()
	}
}
