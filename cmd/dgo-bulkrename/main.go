// Command dgo-bulkrename applies the expression-evaluator mini-language to
// every member of a guild, renaming each to the template's rendered output
// and recording progress in old_<guild>.txt so a killed run can resume
// without re-renaming already-processed members (spec §6).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ocx/dgo/api"
	"github.com/ocx/dgo/metrics"
	"github.com/ocx/dgo/renametemplate"
	"github.com/ocx/dgo/rest"
	"github.com/ocx/dgo/snowflake"
)

func main() {
	var (
		guildFlag    = flag.String("guild", "", "guild snowflake ID")
		templateFlag = flag.String("template", "{i}", "rename template, e.g. \"member-{i}\"")
		baseURL      = flag.String("base-url", "https://discord.com/api/v6", "REST base URL")
		token        = flag.String("token", os.Getenv("DGO_TOKEN"), "bot token")
		dryRun       = flag.Bool("dry-run", false, "print renames without applying them")
	)
	flag.Parse()

	guildID, err := snowflake.Parse(*guildFlag)
	if err != nil {
		log.Fatalf("bulkrename: invalid -guild: %v", err)
	}
	if *token == "" && !*dryRun {
		log.Fatal("bulkrename: -token or DGO_TOKEN is required unless -dry-run")
	}

	path := fmt.Sprintf("old_%s.txt", guildID.String())
	done, err := loadResumeRecords(path)
	if err != nil {
		log.Fatalf("bulkrename: %v", err)
	}
	log.Printf("resuming with %d members already renamed", len(done))

	writer, err := openResumeWriter(path, len(done) > 0)
	if err != nil {
		log.Fatalf("bulkrename: open resume file: %v", err)
	}
	defer writer.Close()

	engine, err := rest.New(*baseURL, "DiscordBot (https://github.com/ocx/dgo, 1.0)", metrics.New())
	if err != nil {
		log.Fatalf("bulkrename: %v", err)
	}
	guildAPI := api.NewGuildAPI(engine, rest.BotAuth(*token), guildID)

	ctx := context.Background()
	var after snowflake.ID
	index := 0
	for {
		members, err := guildAPI.ListMembers(ctx, 1000, after)
		if err != nil {
			log.Fatalf("bulkrename: list members: %v", err)
		}
		if len(members) == 0 {
			break
		}

		for _, m := range members {
			if m.User == nil {
				continue
			}
			after = m.User.ID
			if _, already := done[m.User.ID]; already {
				index++
				continue
			}

			nick := renametemplate.ProcessExpr(*templateFlag, index)
			index++

			if *dryRun {
				fmt.Printf("%s -> %q\n", m.User.ID.String(), nick)
				continue
			}

			if err := guildAPI.ModifyMemberNick(ctx, m.User.ID, nick); err != nil {
				log.Printf("bulkrename: rename %s: %v", m.User.ID.String(), err)
				continue
			}
			if err := writer.Append(renameRecord{U: m.User.ID, N: nick}); err != nil {
				log.Fatalf("bulkrename: record progress: %v", err)
			}
			time.Sleep(100 * time.Millisecond)
		}

		if len(members) < 1000 {
			break
		}
	}

	if !*dryRun {
		if err := writer.Finalize(); err != nil {
			log.Fatalf("bulkrename: finalize resume file: %v", err)
		}
	}
	log.Printf("bulkrename complete: %d members processed", index)
}
