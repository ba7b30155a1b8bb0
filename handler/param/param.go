package param

import (
	"encoding/json"
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/gorilla/schema"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
	decoder.SetAliasTag("json")
}

// Binding decode query parameters of GET requests and the json body of others into v,
// then run the `valid` tags of v
func Binding(r *http.Request, v interface{}) error {
	if r.Method == http.MethodGet {
		if err := decoder.Decode(v, r.URL.Query()); err != nil {
			return err
		}
	} else if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(v); err != nil {
			return err
		}
	}

	_, err := govalidator.ValidateStruct(v)
	return err
}
