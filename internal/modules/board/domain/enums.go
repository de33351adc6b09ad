//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Filter selects which entries of the board are shown
// ENUM(all,online,offline,non_existent)
type Filter string
