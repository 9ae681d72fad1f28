/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/Amadorfl72/mentorhub/cmd"

func main() {
	cmd.Execute()
}
