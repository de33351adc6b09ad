//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Existence tells whether a configured channel id is a real account on the streaming service
// ENUM(unknown,existent,non_existent)
type Existence string

// Status represents the live state of an existing channel
// ENUM(unknown,online,offline)
type Status string

// AppEnv represents the application environment
// ENUM(local,production,development,testing)
type AppEnv string
