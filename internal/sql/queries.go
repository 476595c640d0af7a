package sql

import (
	"embed"
)

//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/reset_schema.sql
var ResetSchema string

//go:embed queries/list_procedures.sql
var ListProcedures string

//go:embed queries/get_procedure.sql
var GetProcedure string

//go:embed queries/replace_procedure.sql
var ReplaceProcedure string

//go:embed queries/delete_procedure.sql
var DeleteProcedure string

//go:embed queries/top_providers.sql
var TopProviders string
