// Command swr runs the weekly podcast digest pipeline and manages its
// configuration: feeds, recipients, and run history.
package main
