package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// AuthTokenHeader carries the refreshed credential back to the caller,
// out-of-band from the response body.
const AuthTokenHeader = "X-Auth-Token"

// --- Request / Response types ---

// patchUserRequest mirrors the patch payload. Field presence is not
// decoded through this struct alone: the handler tracks which keys the
// body actually carried so that an omitted field and an explicit null
// stay distinguishable.
type patchUserRequest struct {
	Name    *string  `json:"name"`
	Roles   []string `json:"roles"`
	Version *int64   `json:"version"`
}

type userTag struct {
	Name string `json:"name"`
}

type userResponse struct {
	ID         string   `json:"id"`
	Username   string   `json:"username"`
	Tag        userTag  `json:"tag"`
	Roles      []string `json:"roles"`
	Unverified bool     `json:"unverified"`
	Admin      bool     `json:"admin"`
	Version    int64    `json:"version"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}
