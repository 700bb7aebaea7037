package router

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/patric-chuzhbe/slidr/internal/db/memorystorage"
	"github.com/patric-chuzhbe/slidr/internal/ipchecker"
	"github.com/patric-chuzhbe/slidr/internal/service"
)

func newExampleServer() *httptest.Server {
	db, err := memorystorage.New()
	if err != nil {
		panic(err)
	}
	ipChecker, err := ipchecker.New("")
	if err != nil {
		panic(err)
	}

	return httptest.NewServer(New(
		service.NewAuth(db),
		service.NewProjects(db),
		service.NewInternal(db),
		ipChecker,
		[]string{"http://localhost:5173"},
	))
}

func post(url, body string) (int, string) {
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		panic(err)
	}

	return resp.StatusCode, string(b)
}

func ExampleRouter_GetPing() {
	server := newExampleServer()
	defer server.Close()

	resp, err := http.Get(server.URL + "/ping")
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	fmt.Println("Status Code:", resp.StatusCode)

	// Output:
	// Status Code: 200
}

func ExampleRouter_PostApiauthsignup() {
	server := newExampleServer()
	defer server.Close()

	code, body := post(
		server.URL+"/api/auth/signup",
		`{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","password":"engine"}`,
	)

	fmt.Println("Status Code:", code)
	fmt.Println(body)

	// Output:
	// Status Code: 200
	// {"userId":1,"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","message":"Signup successful!"}
}

func ExampleRouter_PostApiauthlogin() {
	server := newExampleServer()
	defer server.Close()

	post(
		server.URL+"/api/auth/signup",
		`{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","password":"engine"}`,
	)
	code, body := post(server.URL+"/api/auth/login", `{"email":"ada@example.com","password":"wrong"}`)

	fmt.Println("Status Code:", code)
	fmt.Println(body)

	// Output:
	// Status Code: 401
	// {"error":"Invalid credentials."}
}

func ExampleRouter_PostApiprojects() {
	server := newExampleServer()
	defer server.Close()

	post(
		server.URL+"/api/auth/signup",
		`{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","password":"engine"}`,
	)
	code, body := post(server.URL+"/api/projects", `{"userId":1,"title":"Deck","content":"{}"}`)

	fmt.Println("Status Code:", code)
	fmt.Println(body)

	// Output:
	// Status Code: 200
	// {"id":1,"title":"Deck","content":"{}","user":{"id":1,"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com"}}
}
