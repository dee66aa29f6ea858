// Command scoresight analyzes a response sheet from local files or URLs
// and prints the scored result as JSON.
//
//	scoresight -exam cgl-tier1 page1.html page2.html page3.html page4.html
//	scoresight -exam cgl-tier2 -fetch https://host/path/key.html
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/surajktr/scoresight/internal/analysis"
	"github.com/surajktr/scoresight/internal/examcfg"
	"github.com/surajktr/scoresight/internal/fetch"
)

func main() {
	examType := flag.String("exam", "cgl-tier1", "exam profile type (see -list)")
	doFetch := flag.Bool("fetch", false, "treat arguments as URLs and download them")
	baseURL := flag.String("base", "", "base URL for resolving relative asset paths")
	configDir := flag.String("config-dir", os.Getenv("EXAM_CONFIG_DIR"), "directory of YAML exam-profile overlays")
	list := flag.Bool("list", false, "list available exam profiles and exit")
	flag.Parse()

	reg := examcfg.NewRegistry()
	if *configDir != "" {
		if err := reg.LoadDir(*configDir); err != nil {
			log.Fatalf("exam config: %v", err)
		}
	}

	if *list {
		for _, cfg := range reg.List() {
			fmt.Printf("%s\t%s\t%d questions, %.0f marks\n", cfg.Type, cfg.Name, cfg.TotalQuestions(), cfg.MaxMarks)
		}
		return
	}

	cfg, err := reg.Get(*examType)
	if err != nil {
		log.Fatal(err)
	}
	args := flag.Args()
	if len(args) == 0 {
		log.Fatal("no input files or urls")
	}

	var pages []string
	baseDir := *baseURL
	if *doFetch {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		pages, err = fetch.NewClient(0).Pages(ctx, args)
		if err != nil {
			log.Fatal(err)
		}
		if baseDir == "" {
			baseDir = fetch.BaseDir(args[0])
		}
	} else {
		for _, path := range args {
			raw, err := os.ReadFile(path)
			if err != nil {
				log.Fatal(err)
			}
			pages = append(pages, string(raw))
		}
	}

	res, err := analysis.Analyze(pages, baseDir, cfg)
	if err != nil {
		log.Fatal(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		log.Fatal(err)
	}
}
