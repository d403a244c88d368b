package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewApp_Commands(t *testing.T) {
	app := newApp()

	var names []string
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"tag", "serve", "migrate", "seed"}, names)
	assert.NotNil(t, app.Command("tag").Action)
}
