package common

import "time"

const DefaultConfigFile = "expand-archive.toml"
const DefaultProgressFrequency = time.Second
const DefaultDownloadTimeout = 10 // minutes
const DefaultDownloadRetry = 2
const DefaultDownloadRetryTime = time.Second
