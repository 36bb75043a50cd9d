// One-shot ingestion of reviewer-guidance PDFs into Qdrant. Run before
// starting the API when guidance retrieval should enrich the analysis
// prompt; the pipeline works without it.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"chaincv/resume-analyzer/internal/config"
	"chaincv/resume-analyzer/internal/services"
)

func main() {
	log.Println("🚀 Starting guidance document ingestion...")

	// Load configuration
	cfg := config.Load()

	if cfg.Qdrant.URL == "" {
		log.Fatal("❌ QDRANT_URL must be set to ingest guidance documents")
	}

	// Initialize services
	geminiService, err := services.NewGeminiService(cfg.Gemini)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := qdrantService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	pdfParser := services.NewPDFParserService()
	chunker := services.NewTextChunker()

	ctx := context.Background()

	documents := []struct {
		Path string
		Name string
	}{
		{
			Path: "./reference_docs/resume_review_checklist.pdf",
			Name: "Resume Review Checklist",
		},
		{
			Path: "./reference_docs/scoring_guidelines.pdf",
			Name: "Scoring Guidelines",
		},
		{
			Path: "./reference_docs/recruiter_handbook.pdf",
			Name: "Recruiter Handbook",
		},
	}

	successCount := 0
	failCount := 0

	for _, doc := range documents {
		log.Printf("\n📄 Processing: %s", doc.Name)
		log.Printf("   Path: %s", doc.Path)

		if _, err := os.Stat(doc.Path); os.IsNotExist(err) {
			log.Printf("   ⚠️  File not found, skipping...")
			failCount++
			continue
		}

		log.Printf("   📖 Extracting text...")
		text, err := pdfParser.ExtractText(doc.Path)
		if err != nil {
			log.Printf("   ❌ Failed to extract text: %v", err)
			failCount++
			continue
		}
		if strings.TrimSpace(text) == "" {
			log.Printf("   ❌ No text content found, skipping...")
			failCount++
			continue
		}

		log.Printf("   ✅ Extracted %d characters", len(text))

		log.Printf("   ✂️  Chunking text...")
		chunks := chunker.ChunkText(services.CleanText(text), 1000, 200)
		log.Printf("   ✅ Created %d chunks", len(chunks))

		log.Printf("   🔄 Embedding and storing chunks...")
		for i, chunk := range chunks {
			embedding, err := geminiService.GenerateEmbedding(ctx, chunk)
			if err != nil {
				log.Printf("   ❌ Failed to generate embedding for chunk %d: %v", i+1, err)
				continue
			}

			docID := fmt.Sprintf("%s_chunk_%d", strings.ReplaceAll(strings.ToLower(doc.Name), " ", "_"), i)

			err = qdrantService.UpsertChunk(ctx, docID, "reviewer_guidance", chunk, embedding)
			if err != nil {
				log.Printf("   ❌ Failed to store chunk %d: %v", i+1, err)
				continue
			}

			if (i+1)%5 == 0 || i == len(chunks)-1 {
				log.Printf("   📊 Progress: %d/%d chunks stored", i+1, len(chunks))
			}
		}

		log.Printf("   ✅ Successfully ingested %s", doc.Name)
		successCount++
	}

	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Ingestion Summary:")
	log.Printf("   ✅ Successful: %d documents", successCount)
	log.Printf("   ❌ Failed: %d documents", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some documents failed to ingest. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ All documents ingested successfully!")
}
