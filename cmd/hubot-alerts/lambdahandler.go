package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/function61/gokit/logex"
	"github.com/slawekzachcial/hubot-alerts/pkg/lambdautils"
)

// serves the same REST API, but behind API Gateway
func lambdaHandler() {
	logger := logex.StandardLogger()

	app, err := getApp(logger)
	exitIfError(err)

	lambda.StartHandler(lambdautils.NewApiGatewayHandler(newRestApi(app)))
}
