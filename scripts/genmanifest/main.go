// Command genmanifest converts the azvasa book workbooks into JSON
// sidecars and rebuilds the grade manifest. Run it as a build step
// whenever spreadsheets are added under public/azvasa.
package main

import (
	"flag"
	"log"

	"tcepreview/utils"
)

func main() {
	publicDir := flag.String("public", "./public", "path to the public directory")
	flag.Parse()

	log.Println("Generating JSON from Excel files...")
	if err := utils.GenerateManifest(*publicDir); err != nil {
		log.Fatalf("Manifest generation failed: %v", err)
	}
}
