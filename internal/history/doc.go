// Package history records pipeline run outcomes in a local SQLite database.
package history
