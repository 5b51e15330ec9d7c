// Package main provides the lldpd command-line interface.
package main

func main() {
	Execute()
}
