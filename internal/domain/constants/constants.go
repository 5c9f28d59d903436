package constants

// Environment names
const (
	EnvDevelop    = "develop"
	EnvStaging    = "staging"
	EnvProduction = "production"
)

// Pub/Sub providers
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Mail event attributes
const (
	AttrRequestID = "request_id"
	AttrEventID   = "event_id"
	AttrMailKind  = "mail_kind"
)
