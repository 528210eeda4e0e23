package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/couchcryptid/pogodynka/internal/domain"
)

const timeLayout = "2006-01-02 15:04:05"

// weatherForm is the POST /pogoda body.
type weatherForm struct {
	Country string `validate:"required,max=100"`
	City    string `validate:"required,max=100"`
}

type formPage struct {
	Locations domain.LocationTable
	Selected  weatherForm
	Errors    []string
}

type weatherPage struct {
	City    string
	Country string
	Weather []domain.Reading
	Time    string
}

type errorPage struct {
	Status int
	Title  string
	Detail string
}

func (s *Server) handleForm(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, "form.html", formPage{Locations: s.weather.Locations()})
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, http.StatusBadRequest, "Nieprawidłowe żądanie", err.Error())
		return
	}

	form := weatherForm{
		Country: r.PostForm.Get("country"),
		City:    r.PostForm.Get("city"),
	}
	if err := s.validate.Struct(form); err != nil {
		s.render(w, http.StatusUnprocessableEntity, "form.html", formPage{
			Locations: s.weather.Locations(),
			Selected:  form,
			Errors:    validationMessages(err),
		})
		return
	}

	loc := domain.Location{City: form.City, Country: form.Country}
	report, err := s.weather.Lookup(r.Context(), loc)
	if err != nil {
		s.handleLookupError(w, loc, err)
		return
	}

	s.render(w, http.StatusOK, "weather.html", weatherPage{
		City:    loc.City,
		Country: loc.Country,
		Weather: report.Snapshot.Readings(),
		Time:    report.ObservedAt.Format(timeLayout),
	})
}

func (s *Server) handleLookupError(w http.ResponseWriter, loc domain.Location, err error) {
	var upErr *domain.UpstreamError
	var malformed *domain.MalformedResponseError

	switch {
	case errors.Is(err, domain.ErrUnknownLocation):
		s.renderError(w, http.StatusBadRequest, "Nieznana lokalizacja",
			fmt.Sprintf("%s, %s nie znajduje się na liście lokalizacji.", loc.City, loc.Country))
	case errors.As(err, &upErr):
		s.renderError(w, http.StatusBadGateway, "Błąd serwisu pogodowego", upErr.Detail())
	case errors.As(err, &malformed):
		s.renderError(w, http.StatusBadGateway, "Nieprawidłowa odpowiedź serwisu pogodowego", malformed.Error())
	default:
		s.logger.Error("weather lookup failed", "error", err)
		s.renderError(w, http.StatusInternalServerError, "Błąd wewnętrzny", "")
	}
}

func (s *Server) renderError(w http.ResponseWriter, status int, title, detail string) {
	s.render(w, status, "error.html", errorPage{Status: status, Title: title, Detail: detail})
}

// render executes the template into a buffer first so template errors
// still produce a clean 500.
func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("render template", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	fields := map[string]string{"Country": "kraj", "City": "miasto"}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := fields[fe.Field()]
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("Pole %s jest wymagane.", name))
		case "max":
			msgs = append(msgs, fmt.Sprintf("Pole %s jest za długie.", name))
		default:
			msgs = append(msgs, fmt.Sprintf("Pole %s jest nieprawidłowe.", name))
		}
	}
	return msgs
}
