package mongo

import "errors"

var (
	ErrEmptyConnectionURL      = errors.New("empty mongodb connection url, set MONGODB_URL")
	ErrFailedToConnectToMongo  = errors.New("failed to connect to mongo")
	ErrHealthcheckFailed       = errors.New("mongo healthcheck failed")
	ErrFailedToDisconnectMongo = errors.New("failed to disconnect from mongo")
)
