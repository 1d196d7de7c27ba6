// Command lambda serves the contact endpoint as an AWS Lambda / Netlify
// Function behind an API Gateway proxy integration.
package main

import (
	"log"

	"contact-relay/internal/bootstrap"
	"contact-relay/internal/delivery/serverless"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	app, err := bootstrap.New()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	adapter := serverless.NewAPIGatewayAdapter(app.Contact, app.CORS)
	lambda.Start(adapter.HandleAPIGateway)
}
