package assetsController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"tcepreview/config"
	assetsController "tcepreview/controllers/assets"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbookBytes(t *testing.T, assetIds []string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetCellValue("Sheet1", "A1", "BookId"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Book Title"))
	require.NoError(t, f.SetCellValue("Sheet1", "B5", "ID/Type"))
	for i, id := range assetIds {
		require.NoError(t, f.SetCellValue("Sheet1", fmt.Sprintf("B%d", 6+i), id))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func multipartBody(t *testing.T, workbook []byte, grade string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "Science+Grade+6.xlsx")
	require.NoError(t, err)
	_, err = part.Write(workbook)
	require.NoError(t, err)
	if grade != "" {
		require.NoError(t, writer.WriteField("grade", grade))
	}
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func TestImportAssetIDs(t *testing.T) {
	config.AppConfig = &config.Config{PublicDir: t.TempDir()}
	app := fiber.New()
	app.Post("/import", assetsController.ImportAssetIDs)

	t.Run("returns the parsed ids", func(t *testing.T) {
		body, contentType := multipartBody(t, workbookBytes(t, []string{"A100", "A200"}), "")
		req := httptest.NewRequest("POST", "/import", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, 200, resp.StatusCode)

		var out struct {
			AssetIds []string `json:"assetIds"`
			Count    int      `json:"count"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, []string{"A100", "A200"}, out.AssetIds)
		assert.Equal(t, 2, out.Count)
	})

	t.Run("stores the workbook when a grade is given", func(t *testing.T) {
		body, contentType := multipartBody(t, workbookBytes(t, []string{"A100"}), "grade-6")
		req := httptest.NewRequest("POST", "/import", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, 200, resp.StatusCode)

		entries, err := os.ReadDir(filepath.Join(config.AppConfig.PublicDir, "azvasa", "grade-6"))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].Name(), "Science+Grade+6")
	})

	t.Run("empty workbook is a user error", func(t *testing.T) {
		body, contentType := multipartBody(t, workbookBytes(t, nil), "")
		req := httptest.NewRequest("POST", "/import", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, 400, resp.StatusCode)

		var out map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "no asset IDs found", out["error"])
	})

	t.Run("missing file part", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/import", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, 400, resp.StatusCode)
	})
}

func TestOGImageRoute(t *testing.T) {
	config.AppConfig = &config.Config{PublicDir: t.TempDir()}
	app := fiber.New()
	app.Get("/og-image", assetsController.OGImage)

	resp, err := app.Test(httptest.NewRequest("GET", "/og-image?title=Reflection+of+Light&grade=6", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Cache-Control"), "max-age=86400")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1200, img.Bounds().Dx())
}
