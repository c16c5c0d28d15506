package app

import (
	"database/sql"

	"github.com/go-chi/oauth"

	"github.com/mbolis/demand-console/config"
)

type App struct {
	*sql.DB
	*oauth.BearerServer
	config.Config
}
