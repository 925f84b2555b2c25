package skillgate

const (
	RoleCandidate = "candidate"
	RoleRecruiter = "recruiter"
	RoleAdmin     = "admin"
)

// User is owned by the backend and cached locally for the session.
type User struct {
	ID        int    `json:"id,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      string `json:"role,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Credentials is the payload returned by login and registration.
type Credentials struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type RegisterParams struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role,omitempty"`
}

type UpdateProfileParams struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

func (c *Client) Login(email, password string) (*Credentials, error) {
	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	var creds Credentials
	if err := c.postJSON("/api/auth/login", payload, &creds); err != nil {
		return nil, err
	}

	c.token = creds.Token

	return &creds, nil
}

func (c *Client) Register(params *RegisterParams) (*Credentials, error) {
	var creds Credentials
	if err := c.postJSON("/api/auth/register", params, &creds); err != nil {
		return nil, err
	}

	c.token = creds.Token

	return &creds, nil
}

func (c *Client) GetProfile() (*User, error) {
	var resp struct {
		User *User `json:"user"`
	}
	if err := c.getJSON("/api/auth/profile", nil, &resp); err != nil {
		return nil, err
	}

	return resp.User, nil
}

func (c *Client) UpdateProfile(params *UpdateProfileParams) (*User, error) {
	var resp struct {
		User *User `json:"user"`
	}
	if err := c.putJSON("/api/auth/profile", params, &resp); err != nil {
		return nil, err
	}

	return resp.User, nil
}
