// Package config provides configuration parsing for formvalidator projects.
//
// The configuration is stored in formvalidator.json (or formvalidator.yaml)
// next to the page holding the form. This package handles loading, saving,
// and validating configuration, and turns the declared rules into a
// validator.Config.
//
// # Configuration File Structure
//
//	{
//	  "form": "#form",
//	  "formGroupSelector": ".form-group",
//	  "messageSelector": ".form-message",
//	  "invalidClass": "invalid",
//	  "page": "index.html",
//	  "rules": [
//	    {"rule": "required", "selector": "#fullname", "message": "Please enter your full name"},
//	    {"rule": "email", "selector": "#email"},
//	    {"rule": "minLength", "selector": "#password", "length": 6},
//	    {"rule": "confirmed", "selector": "#password_confirmation", "target": "#password"},
//	    {"rule": "pattern", "selector": "#zip", "pattern": "\\d{5}"}
//	  ],
//	  "server": {
//	    "port": 3000,
//	    "host": "localhost",
//	    "metrics": true
//	  }
//	}
//
// Rule names ignore case and accept an "is" prefix: "isRequired" and
// "required" are the same rule.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
//	vcfg, err := cfg.ValidatorConfig(nil)
package config
