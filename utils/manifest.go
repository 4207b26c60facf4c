package utils

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ManifestEntry is one selectable book inside a grade directory.
type ManifestEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

var (
	workbookExt   = regexp.MustCompile(`(?i)\.xlsx?$`)
	uploadSuffix  = regexp.MustCompile(`-\d{13}$`)
	manifestsName = "manifest.json"
)

// GenerateManifest converts every book workbook under <publicDir>/azvasa
// into a JSON sidecar of asset ids (skipping sidecars that already exist)
// and aggregates all sidecars per grade directory into azvasa/manifest.json.
func GenerateManifest(publicDir string) error {
	azvasaDir := filepath.Join(publicDir, "azvasa")
	if _, err := os.Stat(azvasaDir); err != nil {
		return nil
	}

	gradeDirs, err := os.ReadDir(azvasaDir)
	if err != nil {
		return err
	}

	generated, skipped := 0, 0
	for _, entry := range gradeDirs {
		if !entry.IsDir() {
			continue
		}
		gradeDir := filepath.Join(azvasaDir, entry.Name())
		files, err := os.ReadDir(gradeDir)
		if err != nil {
			return err
		}

		for _, file := range files {
			if file.IsDir() || !workbookExt.MatchString(file.Name()) {
				continue
			}

			jsonName := workbookExt.ReplaceAllString(file.Name(), ".json")
			jsonPath := filepath.Join(gradeDir, jsonName)
			if _, err := os.Stat(jsonPath); err == nil {
				skipped++
				continue
			}

			assetIds, err := ParseAssetIDsFromFile(filepath.Join(gradeDir, file.Name()))
			if err != nil && !errors.Is(err, ErrNoAssetIDs) {
				log.Printf("Failed to parse azvasa/%s/%s: %v", entry.Name(), file.Name(), err)
				continue
			}
			if assetIds == nil {
				assetIds = []string{}
			}

			data, err := json.MarshalIndent(assetIds, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(jsonPath, data, 0644); err != nil {
				return err
			}
			generated++
			log.Printf("Generated: azvasa/%s/%s (%d assets)", entry.Name(), jsonName, len(assetIds))
		}
	}

	if generated > 0 || skipped > 0 {
		log.Printf("Excel to JSON: %d generated, %d already existed", generated, skipped)
	}

	manifest := map[string][]ManifestEntry{}
	for _, entry := range gradeDirs {
		if !entry.IsDir() {
			continue
		}
		gradeDir := filepath.Join(azvasaDir, entry.Name())
		files, err := os.ReadDir(gradeDir)
		if err != nil {
			return err
		}

		var books []ManifestEntry
		for _, file := range files {
			if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
				continue
			}
			books = append(books, ManifestEntry{
				Name: bookName(file.Name()),
				Path: "/azvasa/" + entry.Name() + "/" + file.Name(),
			})
		}
		if len(books) > 0 {
			manifest[entry.Name()] = books
		}
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(azvasaDir, manifestsName), data, 0644); err != nil {
		return err
	}
	log.Println("Generated azvasa/manifest.json")
	return nil
}

// bookName derives the display name: sidecar basename with "+" as spaces
// and any trailing 13-digit upload stamp removed.
func bookName(fileName string) string {
	name := strings.TrimSuffix(fileName, ".json")
	name = strings.ReplaceAll(name, "+", " ")
	return uploadSuffix.ReplaceAllString(name, "")
}
