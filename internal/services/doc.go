// Package services provides the shared error taxonomy and context annotations
// used by pipeline stages and external collaborators.
package services
