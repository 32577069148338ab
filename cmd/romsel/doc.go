// Package main hosts the romsel CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves configuration, directories, and the
// single-instance lock, then hands each request to the selection package:
// add, remove, and keep mutate the selection directory while status only
// reports. Progress goes to stderr so stdout carries command output alone.
//
// Keep this package lean: add behaviour in the internal packages first, then
// surface it here through commands or flags.
package main
