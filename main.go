package main

import "github.com/qrave1/MeetPlanner/cmd"

func main() {
	cmd.Execute()
}
