package paneldb

import (
	"database/sql"
	"fmt"
)

// Client is the entry point for reading and writing the panel database
type Client struct {
	config Config
	DB     *sql.DB
}

// NewClient creates a new Client with the provided configuration
func NewClient(config Config) (*Client, error) {
	db, err := InitDB(config)
	if err != nil {
		return nil, fmt.Errorf("unable to create panel database: %w", err)
	}

	return &Client{
		config: config,
		DB:     db,
	}, nil
}

func (c *Client) Close() error {
	return c.DB.Close()
}
