package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           samjd API
// @version         0.1.0
// @description     HTTP API for promptable image segmentation sessions.
//
// @contact.name   samjd maintainers
// @contact.url    https://github.com/cfusterbarcelo/SAMJ
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
