package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name OptionStore --dir ../domain/standings --output domain/standings --outpkg standingsmock --filename option_store_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/jobscheduler --output domain/jobscheduler --outpkg jobschedulermock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name StandingsFetcher --dir ../usecase --output usecase --outpkg usecasemock --filename standings_fetcher_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name TaskScheduler --dir ../usecase --output usecase --outpkg usecasemock --filename task_scheduler_mock.go
