package entrypoints

// retainAnnotations are the recognized annotation simple names. A
// declaration carrying any of these is seeded: the framework, a DI
// container, a serializer, or a test runner reaches it without a visible
// call site.
var retainAnnotations = map[string]bool{
	// Android / Compose
	"AndroidEntryPoint": true, "HiltAndroidApp": true, "HiltViewModel": true,
	"HiltWorker": true, "Composable": true, "Preview": true,
	"PreviewParameter": true, "Keep": true, "KeepPublicApi": true,
	"JvmStatic": true, "JvmField": true, "JvmOverloads": true, "JvmName": true,
	// Dependency injection
	"Inject": true, "Provides": true, "Binds": true, "BindsInstance": true,
	"BindsOptionalOf": true, "IntoMap": true, "IntoSet": true,
	"Module": true, "Component": true, "Subcomponent": true,
	"AssistedInject": true, "AssistedFactory": true, "EntryPoint": true,
	"InstallIn": true, "Singleton": true, "Reusable": true,
	"ActivityScoped": true, "FragmentScoped": true, "ViewModelScoped": true,
	"ServiceScoped": true,
	// Koin
	"Factory": true, "Single": true, "KoinViewModel": true,
	// Room / persistence
	"Entity": true, "Dao": true, "Database": true, "Query": true,
	"Insert": true, "Update": true, "Delete": true, "RawQuery": true,
	"Transaction": true, "TypeConverter": true, "TypeConverters": true,
	"Embedded": true, "Relation": true, "PrimaryKey": true, "ForeignKey": true,
	"ColumnInfo": true,
	// Retrofit / networking
	"GET": true, "POST": true, "PUT": true, "DELETE": true, "PATCH": true,
	"HEAD": true, "OPTIONS": true, "HTTP": true, "Path": true, "Body": true,
	"Field": true, "FieldMap": true, "Header": true, "HeaderMap": true,
	"Headers": true, "Multipart": true, "FormUrlEncoded": true,
	"Streaming": true, "Url": true,
	// Serialization
	"Serializable": true, "Parcelize": true, "JsonClass": true,
	"JsonAdapter": true, "SerializedName": true, "SerialName": true,
	"Expose": true, "Contextual": true, "Polymorphic": true,
	// Data binding
	"BindingAdapter": true, "InverseBindingAdapter": true,
	"BindingMethod": true, "BindingMethods": true, "BindingConversion": true,
	// Lifecycle
	"OnLifecycleEvent": true,
	// Testing
	"Test": true, "Before": true, "After": true, "BeforeEach": true,
	"AfterEach": true, "BeforeAll": true, "AfterAll": true,
	"ParameterizedTest": true, "RunWith": true,
	// Event bus
	"Subscribe": true,
}

// classAnnotations seed a class and pull its members along: the container
// instantiates the class and calls into annotated members reflectively.
var classAnnotations = map[string]bool{
	"Module": true, "Component": true, "Subcomponent": true,
	"Dao": true, "Database": true, "Entity": true,
	"HiltAndroidApp": true, "AndroidEntryPoint": true, "HiltViewModel": true,
	"Serializable": true, "Parcelize": true, "JsonClass": true,
}

// frameworkSuperTypes are base classes whose subclasses the OS instantiates.
var frameworkSuperTypes = []string{
	"Activity", "AppCompatActivity", "FragmentActivity", "ComponentActivity",
	"Fragment", "DialogFragment", "BottomSheetDialogFragment",
	"Service", "IntentService", "JobService",
	"BroadcastReceiver", "ContentProvider",
	"Application", "ViewModel", "AndroidViewModel",
	"Worker", "ListenableWorker", "CoroutineWorker", "RxWorker",
}

// IsRetainAnnotation reports whether the simple annotation name is in the
// recognized set. Experimental markers deliberately are not.
func IsRetainAnnotation(name string) bool {
	return retainAnnotations[name]
}
