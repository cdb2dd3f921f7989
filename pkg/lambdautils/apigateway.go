// Package lambdautils adapts an http.Handler to run as a Lambda function
// behind AWS API Gateway, so the webhook REST API can be deployed without a
// long-running server.
package lambdautils

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/apex/gateway"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

// github.com/akrylysov/algnhsa has a similar implementation but had the
// useful bits non-exported and it used httptest for production code
func NewApiGatewayHandler(httpHandler http.Handler) lambda.Handler {
	return &apiGatewayHandler{httpHandler}
}

type apiGatewayHandler struct {
	httpHandler http.Handler
}

func (a *apiGatewayHandler) Invoke(ctx context.Context, reqRaw []byte) ([]byte, error) {
	proxyRequest := events.APIGatewayProxyRequest{}
	if err := json.Unmarshal(reqRaw, &proxyRequest); err != nil {
		return nil, err
	}

	request, err := gateway.NewRequest(ctx, proxyRequest)
	if err != nil {
		return nil, err
	}

	response := gateway.NewResponse()

	a.httpHandler.ServeHTTP(response, request)

	proxyResponse := response.End()

	return json.Marshal(&proxyResponse)
}
