package main

import "sales_ledger/cmd"

func main() {
	cmd.Execute()
}
