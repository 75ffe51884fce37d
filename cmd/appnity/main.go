package main

// @title Appnity API
// @version 1.0
// @description API сайта Appnity: блог, продукты, портфолио, обучение, вакансии, отзывы, обращения и рассылка.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @BasePath /
func main() {
	Execute()
}
