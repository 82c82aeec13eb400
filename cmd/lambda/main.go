package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"kortex-blueprint/internal/api"
	"kortex-blueprint/internal/config"
)

// Function URLs and HTTP APIs both deliver the 2.0 payload format.
var adapter *ginadapter.GinLambdaV2

func handler(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return adapter.ProxyWithContext(ctx, request)
}

func main() {
	gin.SetMode(gin.ReleaseMode)
	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()
	cfg.ConfigureLogging()

	server, err := api.NewServer(context.Background(), cfg.Server)
	if err != nil {
		logrus.Fatalf("create server: %v", err)
	}
	router, err := server.Router()
	if err != nil {
		logrus.Fatalf("configure router: %v", err)
	}

	adapter = ginadapter.NewV2(router)
	lambda.Start(handler)
}
