// Package config loads client profiles for simplenet from YAML or JSON files.
//
// A profile file names one or more backends and the default one to use:
//
//	default: staging
//	profiles:
//	  staging:
//	    baseUrl: https://staging.example.com/api
//	    timeout: 10s
//	    debug: true
//	    headers:
//	      Authorization: Bearer {{token}}
//	    variables:
//	      token: dev-token
//	  production:
//	    baseUrl: https://api.example.com
//	    transport: resty
//
// Basic Usage:
//
//	file, err := config.Load("simplenet.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	profile, err := file.Profile("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client, err := profile.NewClient()
//
// Variable Substitution:
//
// Header values may reference profile variables with the {{name}} syntax.
// Variables not defined in the profile fall back to the process environment.
package config
