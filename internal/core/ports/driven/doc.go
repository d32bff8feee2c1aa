// Package driven declares what the core needs from the outside world.
//
// Backend (DocumentGateway plus ChatGateway) is the knowledge base HTTP API.
// The real client lives in adapters/driven/backend, and
// adapters/driven/storage/memory fakes it for tests and offline runs.
// ConfigStore is the settings file.
//
// Only domain may be imported here.
package driven
