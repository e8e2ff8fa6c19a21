package main

import (
	"log"
	"os"

	"github.com/Rakhulsr/go-catalog-admin/app/cmd"
	"github.com/Rakhulsr/go-catalog-admin/app/configs"
)

func main() {

	env := configs.LoadEnv()
	if len(os.Args) > 1 {
		cmd.RunCli(env)
		return
	}

	if err := cmd.Serve(env); err != nil {
		log.Fatal("failed to start the server: ", err)
	}

}
