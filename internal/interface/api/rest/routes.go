package rest

const (
	// api
	RouteApi = "/api"

	// auth
	RouteAuth         = RouteApi + "/auth"
	RouteAuthLogin    = RouteAuth + "/login"
	RouteAuthCallback = RouteAuth + "/callback"
	RouteAuthExchange = RouteAuth + "/exchange"
	RouteAuthStatus   = RouteAuth + "/status"
	RouteAuthMe       = RouteAuth + "/me"
	RouteAuthLogout   = RouteAuth + "/logout"
	RouteAuthAccount  = RouteAuth + "/account"

	// files
	RouteFiles        = RouteApi + "/files"
	RouteFilesDrive   = RouteFiles + "/drive"
	RouteFilesImport  = RouteFiles + "/import"
	RouteFilesPicker  = RouteFiles + "/picker-config"
	RouteFile         = RouteFiles + "/:id"
	RouteFileView     = RouteFile + "/view"
	RouteFileDownload = RouteFile + "/download"

	// ops
	RouteHealth  = RouteApi + "/health"
	RouteMetrics = RouteApi + "/metrics"
)
