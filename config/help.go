package config

import (
	"flag"
	"fmt"
)

const HelpMessage = `gocab - ride-hailing backend

Usage:
  api [-config-path config.yaml]

Configuration is read from the yaml file (if present) and then from the
environment. Frequently used variables:

  HTTP_HOST, HTTP_PORT                      listen address
  DATABASE_HOST, DATABASE_PORT              postgres
  DATABASE_USER, DATABASE_PASSWORD
  DATABASE_DATABASE
  REDIS_HOST, REDIS_PORT                    driver presence, token revocation
  RABBITMQ_HOST, RABBITMQ_PORT              ride matching queue
  MAPS_GOOGLE_API_KEY                       geocoding and routing
  AUTH_JWT_SECRET, AUTH_ACCESS_TOKEN_TTL
  MATCHING_RADIUS_KM                        driver search radius
  LOG_LEVEL                                 DEBUG, INFO, WARN or ERROR
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}
