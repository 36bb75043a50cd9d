// Command client uploads a resume PDF and polls the analyzer until the
// analysis reaches a terminal state, then prints the feedback.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"chaincv/resume-analyzer/internal/poller"
)

func main() {
	var (
		server   = flag.String("server", "http://localhost:3000", "analyzer API base URL")
		file     = flag.String("file", "", "path to the resume PDF to analyze")
		interval = flag.Duration("interval", 3*time.Second, "status poll interval")
		timeout  = flag.Duration("timeout", 5*time.Minute, "overall deadline")
	)
	flag.Parse()

	if *file == "" {
		log.Fatal("❌ -file is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := poller.NewAPIClient(*server)

	log.Printf("📤 Uploading %s...\n", *file)
	resumeID, err := client.UploadResume(ctx, *file)
	if err != nil {
		log.Fatalf("❌ File upload failed: %v", err)
	}
	log.Printf("✅ Uploaded, resume id: %s\n", resumeID)

	p := poller.New(client, *interval)
	log.Println("🔄 Analyzing, polling for status...")

	select {
	case <-ctx.Done():
		log.Fatal("❌ Timed out waiting for analysis")
	case result := <-p.Start(ctx, resumeID):
		switch result.State {
		case poller.StateCompleted:
			printAnalysis(result)
		default:
			log.Fatalf("❌ Analysis failed: %s", result.Message)
		}
	}
}

func printAnalysis(result poller.Result) {
	data := result.Data

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("📋 RESUME ANALYSIS")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("\nSummary:\n  %s\n", data.Summary)

	fmt.Println("\nStrengths:")
	for _, s := range data.Strengths {
		fmt.Printf("  ✅ %s\n", s)
	}

	fmt.Println("\nAreas for improvement:")
	for _, a := range data.AreasForImprovement {
		fmt.Printf("  ⚠️  %s\n", a)
	}

	fmt.Printf("\nOverall score: %d/100\n", data.OverallScore)
	fmt.Println(strings.Repeat("=", 60))
}
