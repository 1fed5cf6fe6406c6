package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"cmrpai/internal/auth"
	"cmrpai/internal/view"
)

const flashCookie = "flash"

// addFlash queues a message for the next rendered page.
func addFlash(c echo.Context, category, message string) {
	flashes := append(readFlashes(c), view.Flash{Category: category, Message: message})
	payload, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlashes returns queued messages and clears them.
func popFlashes(c echo.Context) []view.Flash {
	flashes := readFlashes(c)
	if len(flashes) > 0 {
		c.SetCookie(&http.Cookie{
			Name:     flashCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return flashes
}

func readFlashes(c echo.Context) []view.Flash {
	cookie, err := c.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	payload, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var flashes []view.Flash
	if err := json.Unmarshal(payload, &flashes); err != nil {
		return nil
	}
	return flashes
}

// renderPage renders a full page with the current identity and pending flashes.
func renderPage(c echo.Context, status int, name, title string, data interface{}, extra ...view.Flash) error {
	page := view.Page{
		Title:   title,
		Flashes: append(popFlashes(c), extra...),
		Data:    data,
	}
	if id, ok := auth.CurrentIdentity(c); ok {
		page.Identity = &id
	}
	return c.Render(status, name, page)
}
