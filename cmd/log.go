package cmd

import grovelogging "github.com/mattsolo1/grove-core/logging"

var log = grovelogging.NewLogger("grove-sandbox.cli")
